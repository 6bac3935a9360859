package services

import (
    "errors"

    "github.com/iamkhush/weekly-meals/config"
    "github.com/iamkhush/weekly-meals/models"
)

type ProfileInput struct {
    FullName string `json:"full_name"`
}

func GetUserProfile(userID uint) (map[string]interface{}, error) {
    var user models.User
    result := config.DB.Where("id = ? AND disabled = ?", userID, false).First(&user)
    if result.Error != nil {
        return nil, errors.New("user not found or disabled")
    }

    return map[string]interface{}{
        "id":        user.ID,
        "email":     user.Email,
        "full_name": user.FullName,
    }, nil
}

func UpdateUserProfile(userID uint, input ProfileInput) error {
    var user models.User
    result := config.DB.Where("id = ? AND disabled = ?", userID, false).First(&user)
    if result.Error != nil {
        return errors.New("user not found or disabled")
    }

    if input.FullName != "" {
        user.FullName = input.FullName
    }

    return config.DB.Save(&user).Error
}

func DeleteUser(userID uint) error {
    var user models.User
    result := config.DB.First(&user, userID)
    if result.Error != nil {
        return result.Error
    }
    user.Disabled = true
    return config.DB.Save(&user).Error
}
